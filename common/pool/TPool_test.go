package pool

import "testing"

type scratch struct {
	name string
	vals []string
}

func TestTPool(t *testing.T) {
	p := NewTPool(TPoolConfig[scratch]{
		Reset: func(s *scratch) {
			s.name = ""
			s.vals = s.vals[:0]
		},
	})
	s := p.Get()
	s.name = "used"
	s.vals = append(s.vals, "a", "b")
	p.Put(&s)
	if s != nil {
		t.Fatal("Put must clear the caller's pointer")
	}
	got := p.Get()
	if got.name != "" || len(got.vals) != 0 {
		t.Errorf("expect reset value, got %+v", got)
	}
	p.Put(nil)
}
