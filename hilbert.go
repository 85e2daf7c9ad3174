package spatialindex

// hilbertOrder is the order of the curve used to pack snapshots: positions
// are quantized onto a 2^16 x 2^16 grid.
const hilbertOrder = 16

// hilbertIndex returns the distance along an order-n Hilbert curve of the
// grid cell (x, y). Adapted from https://github.com/rawrunprotected/hilbert_curves
// (public domain).
func hilbertIndex(n uint32, x uint32, y uint32) uint32 {
	x = x << (16 - n)
	y = y << (16 - n)

	var A, B, C, D uint32

	// Initial prefix scan round, prime with x and y
	{
		a := uint32(x ^ y)
		b := uint32(0xFFFF ^ a)
		c := uint32(0xFFFF ^ (x | y))
		d := uint32(x & (y ^ 0xFFFF))

		A = a | (b >> 1)
		B = (a >> 1) ^ a

		C = ((c >> 1) ^ (b & (d >> 1))) ^ c
		D = ((a & (c >> 1)) ^ (d >> 1)) ^ d
	}

	{
		a := A
		b := B
		c := C
		d := D

		A = ((a & (a >> 2)) ^ (b & (b >> 2)))
		B = ((a & (b >> 2)) ^ (b & ((a ^ b) >> 2)))

		C ^= ((a & (c >> 2)) ^ (b & (d >> 2)))
		D ^= ((b & (c >> 2)) ^ ((a ^ b) & (d >> 2)))
	}

	{
		a := A
		b := B
		c := C
		d := D

		A = ((a & (a >> 4)) ^ (b & (b >> 4)))
		B = ((a & (b >> 4)) ^ (b & ((a ^ b) >> 4)))

		C ^= ((a & (c >> 4)) ^ (b & (d >> 4)))
		D ^= ((b & (c >> 4)) ^ ((a ^ b) & (d >> 4)))
	}

	// Final round and projection
	{
		a := A
		b := B
		c := C
		d := D

		C ^= ((a & (c >> 8)) ^ (b & (d >> 8)))
		D ^= ((b & (c >> 8)) ^ ((a ^ b) & (d >> 8)))
	}

	// Undo transformation prefix scan
	a := uint32(C ^ (C >> 1))
	b := uint32(D ^ (D >> 1))

	// Recover index bits
	i0 := uint32(x ^ y)
	i1 := uint32(b | (0xFFFF ^ (i0 | a)))

	return ((interleave(i1) << 1) | interleave(i0)) >> (32 - 2*n)
}

func interleave(x uint32) uint32 {
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// sortByHilbert sorts boxes by their Hilbert values, permuting both slices
// together.
func sortByHilbert(values []uint32, boxes []snapshotBox, left, right int) {
	for left < right {
		pivot := values[(left+right)>>1]
		i := left - 1
		j := right + 1
		for {
			i++
			for values[i] < pivot {
				i++
			}
			j--
			for values[j] > pivot {
				j--
			}
			if i >= j {
				break
			}
			values[i], values[j] = values[j], values[i]
			boxes[i], boxes[j] = boxes[j], boxes[i]
		}

		// Recurse into the smaller half and loop on the larger one to keep
		// the stack shallow on skewed input.
		if j-left < right-j-1 {
			sortByHilbert(values, boxes, left, j)
			left = j + 1
		} else {
			sortByHilbert(values, boxes, j+1, right)
			right = j
		}
	}
}
