package performance

import (
	"context"
	"errors"
	"testing"

	"github.com/aristath/reservestress/internal/domain"
	testingpkg "github.com/aristath/reservestress/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceReport(t *testing.T) {
	source := testingpkg.NewMockPortfolioSource(domain.Portfolio{{AssetClass: domain.MultiAsset, Amount: 100}})
	history := &fakeHistory{indices: map[string][]domain.PricePoint{domain.IndexMSCIWorld: twoYearSeries()}}
	svc := NewService(source, NewAnalyzer(history, 0.02, zerolog.Nop()), zerolog.Nop())

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report.AssetClasses, 1)
	assert.Equal(t, 1.0, report.AssetClasses[0].Weight)
}

func TestServiceReport_SourceError(t *testing.T) {
	source := testingpkg.NewMockPortfolioSource(nil)
	source.SetError(errors.New("no portfolio"))
	svc := NewService(source, NewAnalyzer(&fakeHistory{}, 0.02, zerolog.Nop()), zerolog.Nop())

	_, err := svc.Report(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load portfolio")
}
