package wasm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// ErrNoResponse is returned when a module's handle_request returns a null result,
// which is how modules report methods they do not implement.
var ErrNoResponse = errors.New("handle_request returned null")

// Worker is a single instantiated plugin module.
type Worker interface {
	// Invoke calls handle_request with the method name and request payload
	// and returns a copy of the response payload.
	Invoke(ctx context.Context, method string, input []byte) ([]byte, error)
	Close(ctx context.Context) error
}

type worker struct {
	module        api.Module
	handleRequest api.Function
	allocate      api.Function
	deallocate    api.Function
}

func (w *worker) Invoke(ctx context.Context, method string, input []byte) ([]byte, error) {
	methodPtr, err := w.write(ctx, []byte(method))
	if err != nil {
		return nil, fmt.Errorf("method: %w", err)
	}
	defer w.free(ctx, methodPtr)

	inputPtr, err := w.write(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	defer w.free(ctx, inputPtr)

	result, err := w.handleRequest.Call(ctx,
		uint64(methodPtr), uint64(len(method)),
		uint64(inputPtr), uint64(len(input)))
	if err != nil {
		return nil, fmt.Errorf("failed to call handle_request: %w", err)
	}

	// Result packs the output location as ptr << 32 | len
	if result[0] == 0 {
		return nil, ErrNoResponse
	}
	outputPtr := uint32(result[0] >> 32)
	outputLen := uint32(result[0] & 0xFFFFFFFF)
	defer w.free(ctx, outputPtr)

	output, ok := w.module.Memory().Read(outputPtr, outputLen)
	if !ok {
		return nil, fmt.Errorf("output at %d+%d is out of memory bounds", outputPtr, outputLen)
	}

	// The view aliases guest memory, which is released on return
	return append([]byte(nil), output...), nil
}

func (w *worker) write(ctx context.Context, data []byte) (uint32, error) {
	res, err := w.allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %d bytes: %w", len(data), err)
	}
	ptr := uint32(res[0])
	if !w.module.Memory().Write(ptr, data) {
		w.free(ctx, ptr)
		return 0, fmt.Errorf("failed to write %d bytes at %d", len(data), ptr)
	}
	return ptr, nil
}

func (w *worker) free(ctx context.Context, ptr uint32) {
	_, _ = w.deallocate.Call(ctx, uint64(ptr))
}

func (w *worker) Close(ctx context.Context) error {
	return w.module.Close(ctx)
}
