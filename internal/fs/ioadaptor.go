// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.funfront.dev/compiler.go/internal/exc"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

const readChunk = 32 * 1024

func bodyFromIO(v io.ReadCloser) lang.FileBody {
	return &ioFileBody{rc: v}
}

type ioFileBody struct {
	rc io.ReadCloser
	b  []byte
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := self.rc.Read(self.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	if err == io.EOF {
		return self.b[:count], exc.Wrap(exc.Location{}, exc.CodeEOF, err)
	}
	return self.b[:count], nil
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}

// ReadAll reads the whole content of f. A limit above zero bounds the number
// of bytes accepted; larger files fail with CodeSourceTooLarge.
func ReadAll(ctx context.Context, f lang.File, limit int64) (string, error) {
	uri := f.Path(ctx)
	body, err := f.Body(ctx)
	if err != nil {
		return "", exc.WrapUnknown(exc.Location{URI: uri}, err)
	}
	defer body.Close(ctx)

	var buf bytes.Buffer
	for {
		chunk, err := body.Read(ctx, readChunk)
		buf.Write(chunk)
		if limit > 0 && int64(buf.Len()) > limit {
			return "", exc.New(exc.Location{URI: uri}, exc.CodeSourceTooLarge, fmt.Sprintf("source exceeds %d bytes", limit))
		}
		if errors.Is(err, io.EOF) {
			return buf.String(), nil
		}
		if err != nil {
			return "", exc.WrapUnknown(exc.Location{URI: uri}, err)
		}
	}
}
