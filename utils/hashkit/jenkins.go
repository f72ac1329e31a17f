package hashkit

import "hash"

// Jenkins one-at-a-time hash.

type sum32 uint32

func (s *sum32) BlockSize() int { return 1 }
func (s *sum32) Reset()         { *s = 0 }
func (s *sum32) Size() int      { return 4 }
func (s *sum32) Sum(in []byte) []byte {
	v := s.finish()
	return append(in, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (s *sum32) Sum32() uint32 { return s.finish() }

// Write only mixes, the final avalanche runs in finish so that several
// writes hash the same as one.
func (s *sum32) Write(data []byte) (int, error) {
	h := uint32(*s)
	for _, b := range data {
		h = mix(h, uint32(b))
	}
	*s = sum32(h)
	return len(data), nil
}

func (s *sum32) finish() uint32 {
	return avalanche(uint32(*s))
}

func mix(h, b uint32) uint32 {
	h += b
	h += h << 10
	h ^= h >> 6
	return h
}

func avalanche(h uint32) uint32 {
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

func NewJenkins32() hash.Hash32 {
	var s sum32
	return &s
}

func Jenkins(data []byte) uint32 {
	var h uint32
	for _, b := range data {
		h = mix(h, uint32(b))
	}
	return avalanche(h)
}

func JenkinsString(data string) uint32 {
	var h uint32
	for i := 0; i < len(data); i++ {
		h = mix(h, uint32(data[i]))
	}
	return avalanche(h)
}
