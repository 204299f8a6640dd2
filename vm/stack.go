package vm

const (
	STACK_LIMIT = 4096 // Maximum stack depth, in words
)

// Stack is the machine's value stack. Slots are 32-bit words; positions
// are addressed by non-negative byte offsets from the top of the stack,
// 4 bytes per slot, offset 0 being the top.
type Stack struct {
	Data []int32
}

func (s *Stack) Push(value int32) {
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value int32, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Peek() (value int32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// At returns the value at a byte offset from the top of the stack.
func (s *Stack) At(offset int32) (value int32, ok bool) {
	index, ok := s.index(offset)
	if ok {
		value = s.Data[index]
	}
	return
}

// SetAt stores a value at a byte offset from the top of the stack.
func (s *Stack) SetAt(offset int32, value int32) (ok bool) {
	index, ok := s.index(offset)
	if ok {
		s.Data[index] = value
	}
	return
}

// Drop removes the given number of bytes from the top of the stack.
func (s *Stack) Drop(bytes int32) (ok bool) {
	if bytes < 0 || bytes%4 != 0 {
		return
	}
	count := int(bytes / 4)
	if count > len(s.Data) {
		return
	}
	s.Data = s.Data[:len(s.Data)-count]
	return true
}

func (s *Stack) index(offset int32) (index int, ok bool) {
	if offset < 0 || offset%4 != 0 {
		return
	}
	index = len(s.Data) - 1 - int(offset/4)
	ok = index >= 0
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_LIMIT
}

func (s *Stack) Depth() int {
	return len(s.Data)
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
