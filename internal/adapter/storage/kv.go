package storage

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/pkg/locator"
)

var _ port.RecordStore = (*KVStorage)(nil)
var _ port.BalanceStore = (*KVStorage)(nil)

// Single-byte key prefixes spread record and balance keys in the
// database.
const (
	recordPrefix  byte = 'r'
	balancePrefix byte = 'b'
)

func recordKey(addr locator.Address) []byte {
	return append([]byte{recordPrefix}, addr.Bytes()...)
}

func balanceKey(addr locator.Address) []byte {
	return append([]byte{balancePrefix}, addr.Bytes()...)
}

// KVStorage is the embedded record and balance store. A single writer
// mutex plus batched writes give every operation all-or-nothing
// semantics.
type KVStorage struct {
	mu sync.Mutex
	db *leveldb.DB
}

func NewKVStorage(path string) (*KVStorage, error) {
	const op = "NewKVStorage"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &KVStorage{db: db}, nil
}

// NewKVStorageMem opens the store over leveldb's memory backend, used
// for tests and local runs.
func NewKVStorageMem() (*KVStorage, error) {
	const op = "NewKVStorageMem"

	db, err := leveldb.Open(ldbstorage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &KVStorage{db: db}, nil
}

func (s *KVStorage) Close() error {
	return s.db.Close()
}

func (s *KVStorage) Get(
	ctx context.Context, addr locator.Address,
) ([]byte, error) {
	const op = "KVStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b, err := s.db.Get(recordKey(addr), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			err = domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (s *KVStorage) Put(ctx context.Context, rec port.Record) error {
	const op = "KVStorage.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Put(recordKey(rec.Address), rec.Body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *KVStorage) PutNew(ctx context.Context, rec port.Record) error {
	const op = "KVStorage.PutNew"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(rec.Address)
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		return fmt.Errorf("%s: %w", op, domain.ErrRecordExists)
	}

	if err := s.db.Put(key, rec.Body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *KVStorage) PutBatch(ctx context.Context, recs ...port.Record) error {
	const op = "KVStorage.PutBatch"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := new(leveldb.Batch)
	for _, rec := range recs {
		batch.Put(recordKey(rec.Address), rec.Body)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *KVStorage) Balance(
	ctx context.Context, addr locator.Address,
) (uint64, error) {
	const op = "KVStorage.Balance"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	amount, err := s.readBalance(addr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return amount, nil
}

func (s *KVStorage) Credit(
	ctx context.Context, addr locator.Address, amount uint64,
) error {
	const op = "KVStorage.Credit"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readBalance(addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	next, err := domain.AddAmount(current, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Put(balanceKey(addr), encodeBalance(next), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Open creates a zero balance entry if none exists yet.
func (s *KVStorage) Open(ctx context.Context, addr locator.Address) error {
	const op = "KVStorage.Open"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := balanceKey(addr)
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		return nil
	}

	if err := s.db.Put(key, encodeBalance(0), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Transfer debits from, credits to and applies the record updates as
// one batch. Insufficient source balance fails the whole unit.
func (s *KVStorage) Transfer(
	ctx context.Context,
	from, to locator.Address,
	amount uint64,
	updates ...port.Record,
) error {
	const op = "KVStorage.Transfer"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fromAmount, err := s.readBalance(from)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if fromAmount < amount {
		return fmt.Errorf("%s: %w", op, domain.ErrInsufficientFunds)
	}

	toAmount, err := s.readBalance(to)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	toNext, err := domain.AddAmount(toAmount, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	batch := new(leveldb.Batch)
	batch.Put(balanceKey(from), encodeBalance(fromAmount-amount))
	batch.Put(balanceKey(to), encodeBalance(toNext))
	for _, rec := range updates {
		batch.Put(recordKey(rec.Address), rec.Body)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// readBalance treats an absent entry as zero.
func (s *KVStorage) readBalance(addr locator.Address) (uint64, error) {
	b, err := s.db.Get(balanceKey(addr), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("truncated balance entry for %s", addr)
	}
	return binary.BigEndian.Uint64(b), nil
}

func encodeBalance(amount uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, amount)
	return b
}
