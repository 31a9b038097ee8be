package keymutex

import "sync"

// KeyMutex набор мьютексов по ключу. Записи удаляются, когда их никто не держит.
type KeyMutex[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New создает пустой KeyMutex
func New[K comparable]() *KeyMutex[K] {
	return &KeyMutex[K]{locks: make(map[K]*entry)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения
func (k *KeyMutex[K]) Lock(key K) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len количество ключей, которые сейчас кто-то держит или ждёт
func (k *KeyMutex[K]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
