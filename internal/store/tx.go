package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type readResult struct {
	value   string
	found   bool
	version int64
}

type pendingWrite struct {
	value  string
	delete bool
}

// Tx is a buffered view over a KV used by one attempt of a Store.View or
// Store.Update function. Reads go to the backend once per key and record the
// observed version; writes stay in memory until the attempt commits.
// A Tx must not be used after the function it was passed to returns.
type Tx struct {
	ctx      context.Context
	kv       KV
	readOnly bool
	reads    map[string]readResult
	writes   map[string]pendingWrite
}

func newTx(ctx context.Context, kv KV, readOnly bool) *Tx {
	return &Tx{
		ctx:      ctx,
		kv:       kv,
		readOnly: readOnly,
		reads:    make(map[string]readResult),
		writes:   make(map[string]pendingWrite),
	}
}

// Context returns the context the transaction runs under.
func (tx *Tx) Context() context.Context {
	return tx.ctx
}

func (tx *Tx) load(key string) (readResult, error) {
	if r, ok := tx.reads[key]; ok {
		return r, nil
	}
	entry, err := tx.kv.Get(tx.ctx, key)
	var r readResult
	switch {
	case err == nil:
		r = readResult{value: entry.Value, found: true, version: entry.Version}
	case IsNotFoundError(err):
		r = readResult{}
	default:
		return readResult{}, NewStoreError(key, "get", "failed to read key", err)
	}
	tx.reads[key] = r
	return r, nil
}

// Get returns the value of key as seen by this transaction, including its own
// buffered writes. found is false when the key does not exist.
func (tx *Tx) Get(key string) (value string, found bool, err error) {
	if w, ok := tx.writes[key]; ok {
		return w.value, !w.delete, nil
	}
	r, err := tx.load(key)
	if err != nil {
		return "", false, err
	}
	return r.value, r.found, nil
}

// Set buffers a put of value under key.
func (tx *Tx) Set(key, value string) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	if _, err := tx.load(key); err != nil {
		return err
	}
	tx.writes[key] = pendingWrite{value: value}
	return nil
}

// Delete buffers the removal of key.
func (tx *Tx) Delete(key string) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	if _, err := tx.load(key); err != nil {
		return err
	}
	tx.writes[key] = pendingWrite{delete: true}
	return nil
}

// GetJSON decodes the JSON value of key into v. It reports false and leaves v
// untouched when the key does not exist.
func (tx *Tx) GetJSON(key string, v any) (bool, error) {
	raw, found, err := tx.Get(key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, NewStoreError(key, "decode", "value is not valid JSON",
			fmt.Errorf("%w: %v", ErrCorruptValue, err))
	}
	return true, nil
}

// SetJSON encodes v as JSON and buffers it under key.
func (tx *Tx) SetJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return NewStoreError(key, "encode", "failed to encode value", err)
	}
	return tx.Set(key, string(b))
}

// GetInt reads a decimal integer. A missing key reads as 0.
func (tx *Tx) GetInt(key string) (int, error) {
	raw, found, err := tx.Get(key)
	if err != nil || !found {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, NewStoreError(key, "decode", "value is not an integer",
			fmt.Errorf("%w: %v", ErrCorruptValue, err))
	}
	return n, nil
}

// SetInt buffers n as a decimal string under key.
func (tx *Tx) SetInt(key string, n int) error {
	return tx.Set(key, strconv.Itoa(n))
}

// pending builds the commit for this attempt: one put or delete per written key
// and a version check per key that was only read. Keys are sorted so backends
// lock rows in a stable order.
func (tx *Tx) pending() (writes []Write, changed []string) {
	keys := make([]string, 0, len(tx.reads))
	for k := range tx.reads {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		r := tx.reads[k]
		w, written := tx.writes[k]
		switch {
		case !written:
			writes = append(writes, Write{Key: k, Op: OpCheck, ExpectedVersion: r.version})
		case w.delete:
			if !r.found {
				continue
			}
			writes = append(writes, Write{Key: k, Op: OpDelete, ExpectedVersion: r.version})
			changed = append(changed, k)
		default:
			if r.found && r.value == w.value {
				writes = append(writes, Write{Key: k, Op: OpCheck, ExpectedVersion: r.version})
				continue
			}
			writes = append(writes, Write{Key: k, Value: w.value, Op: OpPut, ExpectedVersion: r.version})
			changed = append(changed, k)
		}
	}
	return writes, changed
}
