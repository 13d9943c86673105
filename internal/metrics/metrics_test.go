package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	m.LinesIngested.Add(3)
	require.Equal(t, float64(3), testutil.ToFloat64(m.LinesIngested))

	m.ParseErrorsTotal.WithLabelValues("malformed_row").Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(m.ParseErrorsTotal.WithLabelValues("malformed_row")))
}

func TestNewFailsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
}
