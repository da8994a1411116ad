package library

import (
	"fmt"
	"slices"
)

// accessState tracks who is inside the library.
type accessState struct {
	maxReaders int
	readers    int
	writers    int
	// порядок входа нужен только для снапшотов
	admitted []string
	roles    map[string]Role
}

func newAccessState(maxReaders int) accessState {
	return accessState{
		maxReaders: maxReaders,
		roles:      make(map[string]Role),
	}
}

func (s *accessState) canAdmit(role Role) bool {
	if role == Writer {
		return s.readers == 0 && s.writers == 0
	}
	return s.writers == 0 && s.readers < s.maxReaders
}

func (s *accessState) isAdmitted(id string) bool {
	_, ok := s.roles[id]
	return ok
}

func (s *accessState) admit(id string, role Role) {
	if role == Writer {
		s.writers++
	} else {
		s.readers++
	}
	s.roles[id] = role
	s.admitted = append(s.admitted, id)
}

func (s *accessState) release(id string, role Role) {
	got, ok := s.roles[id]
	if !ok {
		panic(fmt.Sprintf("library: release of %q which is not inside", id))
	}
	if got != role {
		panic(fmt.Sprintf("library: %q is inside as %s, not as %s", id, got, role))
	}
	if role == Writer {
		s.writers--
	} else {
		s.readers--
	}
	delete(s.roles, id)
	s.admitted = slices.DeleteFunc(s.admitted, func(a string) bool { return a == id })
}
