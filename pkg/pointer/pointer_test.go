package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/libris/pkg/pointer"
)

/*
TestPointer verifies To copies its argument and Val tolerates nil.
*/
func TestPointer(t *testing.T) {
	typeID := 4
	p := pointer.To(typeID)
	*p = 5

	assert.Equal(t, 4, typeID)
	assert.Equal(t, 5, pointer.Val(p))
	assert.Equal(t, 0, pointer.Val[int](nil))
	assert.Equal(t, "", pointer.Val[string](nil))
}
