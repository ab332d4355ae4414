//ignorefile:ignore shadow
package sub

type List[T any] struct{ items []T }

func (l *List[T]) Push(v T) {
	type local struct{}
	l.items = append(l.items, v)
}
