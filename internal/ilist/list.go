// Package ilist implements an intrusive doubly-linked list, adapted
// from qxcheng-net-protocol's pkg/ilist (which declared the
// Linker/Element interface and the List struct but implemented no
// methods). Used by rtsync for each Sema root's waiter list, where
// O(1) removal of an arbitrary element (not just the head) is needed
// by Sema.Release's "find and unlink the matching waiter" step.
package ilist

// Linker is the interface that allows a struct to be a member of a
// List. Embed Entry to get it for free.
type Linker interface {
	Next() Element
	Prev() Element
	SetNext(Element)
	SetPrev(Element)
}

// Element is a member of a List.
type Element interface {
	Linker
}

// Entry is a default implementation of Linker. Embed an anonymous
// Entry field to make a struct usable as a List element.
type Entry struct {
	next Element
	prev Element
}

func (e *Entry) Next() Element       { return e.next }
func (e *Entry) Prev() Element       { return e.prev }
func (e *Entry) SetNext(elem Element) { e.next = elem }
func (e *Entry) SetPrev(elem Element) { e.prev = elem }

// List is an intrusive doubly-linked list. The zero value is an
// empty list ready for use.
type List struct {
	head Element
	tail Element
}

// Empty reports whether the list has no elements.
func (l *List) Empty() bool {
	return l.head == nil
}

// Front returns the first element, or nil if the list is empty.
func (l *List) Front() Element {
	return l.head
}

// Back returns the last element, or nil if the list is empty.
func (l *List) Back() Element {
	return l.tail
}

// PushBack appends elem to the end of the list.
func (l *List) PushBack(elem Element) {
	elem.SetPrev(l.tail)
	elem.SetNext(nil)

	if l.tail != nil {
		l.tail.SetNext(elem)
	} else {
		l.head = elem
	}
	l.tail = elem
}

// PushFront prepends elem to the front of the list.
func (l *List) PushFront(elem Element) {
	elem.SetNext(l.head)
	elem.SetPrev(nil)

	if l.head != nil {
		l.head.SetPrev(elem)
	} else {
		l.tail = elem
	}
	l.head = elem
}

// Remove unlinks elem from the list. elem must currently be a member
// of l; behavior is undefined otherwise.
func (l *List) Remove(elem Element) {
	prev := elem.Prev()
	next := elem.Next()

	if prev != nil {
		prev.SetNext(next)
	} else {
		l.head = next
	}

	if next != nil {
		next.SetPrev(prev)
	} else {
		l.tail = prev
	}

	elem.SetNext(nil)
	elem.SetPrev(nil)
}

// PopFront removes and returns the first element, or nil if empty.
func (l *List) PopFront() Element {
	e := l.head
	if e != nil {
		l.Remove(e)
	}
	return e
}
