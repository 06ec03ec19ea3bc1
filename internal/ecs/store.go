package ecs

import "reflect"

// eraser lets Despawn drop an entity's row from every component table
// without the Store needing to know the concrete component types.
type eraser interface {
	erase(Entity)
}

type table[T any] struct {
	data map[Entity]T
}

func (t *table[T]) erase(e Entity) {
	delete(t.data, e)
}

// Store maps Entity handles to heterogeneous component rows. It carries no
// internal locking: per the single-threaded-per-room simulation model, a
// Store is owned and mutated exclusively by its room's step goroutine.
type Store struct {
	entities map[Entity]struct{}
	tables   map[reflect.Type]eraser
}

// NewStore returns an empty entity-component store.
func NewStore() *Store {
	return &Store{
		entities: make(map[Entity]struct{}),
		tables:   make(map[reflect.Type]eraser),
	}
}

// Spawn mints a new live entity with no components attached.
func (s *Store) Spawn() Entity {
	e := newEntity()
	s.entities[e] = struct{}{}
	return e
}

// Alive reports whether e was spawned and not yet despawned.
func (s *Store) Alive(e Entity) bool {
	_, ok := s.entities[e]
	return ok
}

// Despawn removes e and every component it carries. Calling Despawn on an
// entity that is already gone is a no-op: despawn is idempotent.
func (s *Store) Despawn(e Entity) {
	if !s.Alive(e) {
		return
	}
	delete(s.entities, e)
	for _, t := range s.tables {
		t.erase(e)
	}
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return len(s.entities)
}

func tableFor[T any](s *Store) *table[T] {
	var zero T
	key := reflect.TypeOf(zero)
	if t, ok := s.tables[key]; ok {
		return t.(*table[T])
	}
	tbl := &table[T]{data: make(map[Entity]T)}
	s.tables[key] = tbl
	return tbl
}

// Set attaches or overwrites component T on e.
func Set[T any](s *Store, e Entity, c T) {
	tableFor[T](s).data[e] = c
}

// Get fetches component T on e, if present.
func Get[T any](s *Store, e Entity) (T, bool) {
	c, ok := tableFor[T](s).data[e]
	return c, ok
}

// Has reports whether e carries component T.
func Has[T any](s *Store, e Entity) bool {
	_, ok := tableFor[T](s).data[e]
	return ok
}

// Remove detaches component T from e, leaving the entity itself alive.
func Remove[T any](s *Store, e Entity) {
	delete(tableFor[T](s).data, e)
}

// Count returns the number of entities currently carrying component T.
func Count[T any](s *Store) int {
	return len(tableFor[T](s).data)
}

// Mutate applies fn to a copy of e's T component and writes it back. It
// reports false without calling fn if e does not carry T.
func Mutate[T any](s *Store, e Entity, fn func(*T)) bool {
	t := tableFor[T](s)
	c, ok := t.data[e]
	if !ok {
		return false
	}
	fn(&c)
	t.data[e] = c
	return true
}

// Each1 visits every entity carrying A, writing back any mutation fn makes.
func Each1[A any](s *Store, fn func(Entity, *A)) {
	t := tableFor[A](s)
	for e, a := range t.data {
		fn(e, &a)
		t.data[e] = a
	}
}

// Each2 visits every entity carrying both A and B.
func Each2[A, B any](s *Store, fn func(Entity, *A, *B)) {
	ta := tableFor[A](s)
	tb := tableFor[B](s)
	for e, a := range ta.data {
		b, ok := tb.data[e]
		if !ok {
			continue
		}
		fn(e, &a, &b)
		ta.data[e] = a
		tb.data[e] = b
	}
}

// Each3 visits every entity carrying A, B, and C.
func Each3[A, B, C any](s *Store, fn func(Entity, *A, *B, *C)) {
	ta := tableFor[A](s)
	tb := tableFor[B](s)
	tc := tableFor[C](s)
	for e, a := range ta.data {
		b, ok := tb.data[e]
		if !ok {
			continue
		}
		c, ok := tc.data[e]
		if !ok {
			continue
		}
		fn(e, &a, &b, &c)
		ta.data[e] = a
		tb.data[e] = b
		tc.data[e] = c
	}
}

// Each4 visits every entity carrying A, B, C, and D.
func Each4[A, B, C, D any](s *Store, fn func(Entity, *A, *B, *C, *D)) {
	ta := tableFor[A](s)
	tb := tableFor[B](s)
	tc := tableFor[C](s)
	td := tableFor[D](s)
	for e, a := range ta.data {
		b, ok := tb.data[e]
		if !ok {
			continue
		}
		c, ok := tc.data[e]
		if !ok {
			continue
		}
		d, ok := td.data[e]
		if !ok {
			continue
		}
		fn(e, &a, &b, &c, &d)
		ta.data[e] = a
		tb.data[e] = b
		tc.data[e] = c
		td.data[e] = d
	}
}
