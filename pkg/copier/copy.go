package copier

import (
	"io"
	"os"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
)

// copyFile streams src into dst through a fixed size buffer, truncating dst
// if it already exists. It runs without holding any lock shared with other
// tasks; only the atomic counters are touched.
func (j *Job) copyFile(src, dst string) {
	log := j.copier.log
	j.stats.SetCurrentPath(src)

	in, err := j.copier.fs.Open(src)
	if err != nil {
		j.stats.AddFilesFailed(1)
		j.report(&FileOpenError{Path: src, Side: SideSource, Err: err})
		return
	}
	defer in.Close()

	out, err := j.copier.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		j.stats.AddFilesFailed(1)
		j.report(&FileOpenError{Path: dst, Side: SideDestination, Err: err})
		return
	}

	bufp := j.copier.buffers.Get().(*[]byte)
	written, err := j.stream(out, in, *bufp)
	j.copier.buffers.Put(bufp)

	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		j.stats.AddFilesFailed(1)
		j.report(&CopyError{Source: src, Destination: dst, Err: err})
		return
	}

	copied := j.stats.AddFilesCopied(1)
	log.WithFields(logger.Fields{
		"source":      src,
		"destination": dst,
		"bytes":       written,
		"copied":      copied,
	}).Debug("File copied")
}

// stream copies until EOF, adding every chunk to the byte counter.
func (j *Job) stream(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			j.stats.AddBytesCopied(int64(w))
			if werr != nil {
				return written, werr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}

		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
