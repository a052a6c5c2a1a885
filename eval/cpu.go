package eval

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

// ErrLengthMismatch is returned by evaluators when position and distance buffers differ in length.
var ErrLengthMismatch = errors.New("position and distance length mismatch")

// CPU wraps an [SDF3] with its own [VecPool] and checks for leaked
// scratch buffers after every evaluation.
type CPU struct {
	SDF SDF3
	vp  VecPool
}

func (sdf *CPU) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if userData == nil {
		userData = &sdf.vp
	}
	err := sdf.SDF.Evaluate(pos, dist, userData)
	err2 := sdf.vp.AssertAllReleased()
	if err != nil {
		if err2 != nil {
			return fmt.Errorf("VecPool leak:(%s) SDF error:(%s)", err2, err)
		}
		return err
	}
	return err2
}

// VecPool method exposes the CPU's VecPool in case user wishes to use their own userData in evaluations.
func (sdf *CPU) VecPool() *VecPool { return &sdf.vp }

// GetVecPool asserts the userData as a VecPool. If assert fails then
// an error is returned with information on what went wrong.
func GetVecPool(userData any) (*VecPool, error) {
	vp, ok := userData.(*VecPool)
	if !ok {
		vper, ok := userData.(interface{ VecPool() *VecPool })
		if !ok {
			return nil, fmt.Errorf("want userData type *eval.VecPool for CPU evaluations, got %T", userData)
		}
		vp = vper.VecPool()
		if vp == nil {
			return nil, fmt.Errorf("nil return value from VecPool method of %T", userData)
		}
	}
	return vp, nil
}

// VecPool serves as a pool of Vec3 and float32 slices for
// evaluating SDFs on the CPU while reducing garbage generation.
// Buffers are kept between frames so steady state rendering does not allocate.
type VecPool struct {
	V3    bufPool[ms3.Vec]
	Float bufPool[float32]
}

// AssertAllReleased checks all buffers are not in use. Should be called
// after ending a run to find memory leaks.
func (vp *VecPool) AssertAllReleased() error {
	err := vp.Float.assertAllReleased()
	if err != nil {
		return err
	}
	return vp.V3.assertAllReleased()
}

// Allocated returns the number of bytes held by the pool.
func (vp *VecPool) Allocated() int {
	return vp.V3.elems()*12 + vp.Float.elems()*4
}

type bufPool[T any] struct {
	_ins      [][]T
	_acquired []bool
}

// Acquire returns a buffer of exactly length elements. Contents are not zeroed.
func (bp *bufPool[T]) Acquire(length int) []T {
	for i, locked := range bp._acquired {
		if !locked && len(bp._ins[i]) >= length {
			bp._acquired[i] = true
			return bp._ins[i][:length]
		}
	}
	// Release identifies buffers by their first element so never allocate empty ones.
	newSlice := make([]T, max(length, 1))
	bp._ins = append(bp._ins, newSlice)
	bp._acquired = append(bp._acquired, true)
	return newSlice[:length]
}

func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return errors.New("release of empty buffer")
	}
	buf = buf[:1]
	for i, instance := range bp._ins {
		if &instance[0] == &buf[0] {
			if !bp._acquired[i] {
				return errors.New("release of unacquired resource")
			}
			bp._acquired[i] = false
			return nil
		}
	}
	return errors.New("release of nonexistent resource")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, locked := range bp._acquired {
		if locked {
			return fmt.Errorf("locked %T resource found in eval.bufPool.assertAllReleased, memory leak?", *new(T))
		}
	}
	return nil
}

func (bp *bufPool[T]) elems() (n int) {
	for _, b := range bp._ins {
		n += len(b)
	}
	return n
}
