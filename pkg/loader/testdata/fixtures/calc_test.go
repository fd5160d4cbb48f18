package calc

import "testing"

func TestAdd(t *testing.T) {
	t.Run("small numbers", func(t *testing.T) {})
	t.Run("overflow", func(t *testing.T) {
		t.Run("int64 max", func(t *testing.T) {})
	})
}

func TestSub(t *testing.T) {}

func helper(t *testing.T) {}
