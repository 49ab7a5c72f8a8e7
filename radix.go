// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

// Radix is a mixed-radix numbering system. Position k has dims[k] digits and
// weight mult[k], the product of the dimensions of all previous positions. An
// instance id encodes one digit per position; the first position is the least
// significant. The empty Radix has a single instance, 0.
type Radix struct {
	dims []int
	mult []int
	size int
}

// push appends a new (most significant) position with dim digits.
func (r *Radix) push(dim int) {
	if r.size == 0 {
		r.size = 1
	}
	r.dims = append(r.dims, dim)
	r.mult = append(r.mult, r.size)
	r.size *= dim
}

func (r Radix) clone() Radix {
	return Radix{
		dims: append([]int(nil), r.dims...),
		mult: append([]int(nil), r.mult...),
		size: r.size,
	}
}

// Size returns the number of instances, that is the product of all the
// dimensions.
func (r Radix) Size() int {
	if r.size == 0 {
		return 1
	}
	return r.size
}

// Len returns the number of positions.
func (r Radix) Len() int {
	return len(r.dims)
}

// Dim returns the number of digits at position pos.
func (r Radix) Dim(pos int) int {
	return r.dims[pos]
}

// Mult returns the weight of position pos.
func (r Radix) Mult(pos int) int {
	return r.mult[pos]
}

// Digit returns the digit of instance id at position pos.
func (r Radix) Digit(id, pos int) int {
	return (id / r.mult[pos]) % r.dims[pos]
}

// Encode returns the instance id of a sequence of digits, one per position.
// Missing trailing digits count as 0.
func (r Radix) Encode(digits []int) int {
	id := 0
	for k := 0; k < len(r.dims) && k < len(digits); k++ {
		id += digits[k] * r.mult[k]
	}
	return id
}

// Decode writes the digits of instance id in buf, which is grown when needed,
// and returns it.
func (r Radix) Decode(id int, buf []int) []int {
	if cap(buf) < len(r.dims) {
		buf = make([]int, len(r.dims))
	}
	buf = buf[:len(r.dims)]
	for k, d := range r.dims {
		buf[k] = id % d
		id /= d
	}
	return buf
}
