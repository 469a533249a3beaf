// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"bufio"
	"io"
	"os"
)

// GetCharFunc reads one byte of input. ok is false on EOF.
type GetCharFunc func() (b byte, ok bool, err error)

// PutCharFunc writes one byte of output.
type PutCharFunc func(b byte) error

// StdioGetChar returns a GetCharFunc reading from r, buffered.
func StdioGetChar(r io.Reader) GetCharFunc {
	br := bufio.NewReader(r)
	return func() (byte, bool, error) {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		return b, true, nil
	}
}

// StdioPutChar returns a PutCharFunc writing to w, buffered and flushed
// after every byte (brainmuck output is interactive by convention).
func StdioPutChar(w io.Writer) PutCharFunc {
	bw := bufio.NewWriter(w)
	return func(b byte) error {
		if err := bw.WriteByte(b); err != nil {
			return err
		}
		return bw.Flush()
	}
}

func defaultGetChar() GetCharFunc { return StdioGetChar(os.Stdin) }
func defaultPutChar() PutCharFunc { return StdioPutChar(os.Stdout) }
