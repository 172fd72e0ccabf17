package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/salmonumbrella/pci-table/internal/output"
)

func withTestContext(t *testing.T, format output.Format) (context.Context, *bytes.Buffer, *bytes.Buffer, func()) {
	t.Helper()
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	ctx := withIO(context.Background(), in, out, errBuf)
	ctx = output.WithFormat(ctx, format)

	prevType := outputType
	prevFmt := outputFmt
	outputType = format
	outputFmt = string(format)

	return ctx, out, errBuf, func() {
		outputType = prevType
		outputFmt = prevFmt
	}
}
