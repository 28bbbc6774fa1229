package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, Pagination{Limit: 20}, Pagination{}.Normalize(20))
	require.Equal(t, Pagination{Limit: 30}, Pagination{}.Normalize(30))
	require.Equal(t, Pagination{Limit: DefaultLimit}, Pagination{}.Normalize(0))
	require.Equal(t, Pagination{Limit: MaxLimit}, Pagination{Limit: 1000}.Normalize(20))
	require.Equal(t, Pagination{Limit: 5}, Pagination{Limit: 5, Offset: -1}.Normalize(20))
}
