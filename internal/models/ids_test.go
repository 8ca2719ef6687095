package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialID(t *testing.T) {
	assert.Equal(t, "glo-cel-007", SequentialID(DefaultSitePrefix, 7, 3))
	assert.Equal(t, "glo-txn-00001", SequentialID(DefaultRecordPrefix, 1, IDWidth(99, 5)))
	assert.Equal(t, "glo-txn-123456", SequentialID(DefaultRecordPrefix, 123456, IDWidth(123456, 5)))
}

func TestIDWidth(t *testing.T) {
	assert.Equal(t, 3, IDWidth(12, 3))
	assert.Equal(t, 4, IDWidth(1000, 3))
	assert.Equal(t, 1, IDWidth(0, 1))
}
