package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWarmer struct {
	windows []domain.Window
	limits  []int
	err     error
}

func (w *recordingWarmer) Warm(ctx context.Context, win domain.Window, limit int) error {
	w.windows = append(w.windows, win)
	w.limits = append(w.limits, limit)
	return w.err
}

func TestTrailingWindow(t *testing.T) {
	now := time.Date(2020, 8, 15, 17, 30, 0, 0, time.FixedZone("UTC+3", 3*3600))
	w := TrailingWindow(now, 7)

	assert.Equal(t, time.Date(2020, 8, 8, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2020, 8, 16, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Valid())
	assert.True(t, w.Contains(time.Date(2020, 8, 15, 23, 59, 0, 0, time.UTC)))
}

func TestRunOnce(t *testing.T) {
	warmer := &recordingWarmer{}
	s := NewScheduler(warmer, 30, nil)
	s.now = func() time.Time { return time.Date(2020, 8, 31, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, s.RunOnce(context.Background()))
	require.Len(t, warmer.windows, 1)
	assert.Equal(t, time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC), warmer.windows[0].Start)
	assert.Equal(t, domain.DefaultTopClientsLimit, warmer.limits[0])

	warmer.err = errors.New("redis down")
	assert.Error(t, s.RunOnce(context.Background()))
}

func TestStart(t *testing.T) {
	s := NewScheduler(&recordingWarmer{}, 30, nil)

	assert.Error(t, s.Start("not a schedule"))

	require.NoError(t, s.Start("0 */5 * * * *"))
	<-s.Stop().Done()
}
