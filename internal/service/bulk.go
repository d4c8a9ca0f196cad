package service

import (
	"context"
	"errors"
	"sync"
)

// BatchError accumulates the errors produced while seeding many accounts.
type BatchError struct {
	Errors []error
}

func (e *BatchError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *BatchError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *BatchError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkCreator creates large account datasets using a worker pool. Failed
// items are collected rather than aborting the batch, so one bad record
// does not discard the rest of a seed file.
type BulkCreator struct {
	service *AccountService
	workers int
}

// NewBulkCreator creates a BulkCreator with the provided concurrency.
func NewBulkCreator(service *AccountService, workers int) *BulkCreator {
	if workers <= 0 {
		workers = 4
	}
	return &BulkCreator{
		service: service,
		workers: workers,
	}
}

// CreateAccounts persists the provided inputs concurrently.
func (bc *BulkCreator) CreateAccounts(ctx context.Context, inputs []AccountInput) error {
	if len(inputs) == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, len(inputs))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if _, err := bc.service.CreateAccount(ctx, inputs[idx]); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < bc.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < len(inputs); i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var batchErr BatchError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		batchErr.append(err)
	}
	return batchErr.asError()
}
