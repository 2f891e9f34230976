package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasknest/internal/kv"
)

func TestLoadDefaults(t *testing.T) {
	s := NewStore(kv.NewMemory())
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Defaults(), got)
	require.True(t, got.IsDark())
}

func TestSetAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())

	require.NoError(t, s.Set(ctx, KeyTheme, "Light"))
	require.NoError(t, s.Set(ctx, KeyNotifications, "false"))
	require.NoError(t, s.Set(ctx, KeyHaptic, "0"))
	require.NoError(t, s.Set(ctx, KeyAnalytics, "TRUE"))
	require.NoError(t, s.Set(ctx, KeyReminderTime, "8:00"))
	require.NoError(t, s.Set(ctx, KeyFontSize, "18"))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Settings{
		Theme:         ThemeLight,
		Notifications: false,
		Haptic:        false,
		Analytics:     true,
		ReminderTime:  "08:00",
		FontSize:      18,
	}, got)
	require.False(t, got.IsDark())
}

func TestSetRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{KeyTheme, "purple"},
		{KeyNotifications, "maybe"},
		{KeyReminderTime, "25:00"},
		{KeyReminderTime, "noon"},
		{KeyFontSize, "15"},
		{KeyFontSize, "big"},
		{"volume", "11"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			b := kv.NewMemory()
			err := NewStore(b).Set(context.Background(), tt.key, tt.value)
			require.Error(t, err)
			require.Equal(t, 0, b.Len())
		})
	}
}

func TestLoadToleratesGarbageScalars(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemory()
	// Values written by an older client or by hand.
	require.NoError(t, b.Set(ctx, KeyTheme, "neon"))
	require.NoError(t, b.Set(ctx, KeyNotifications, "nope"))
	require.NoError(t, b.Set(ctx, KeyAnalytics, "yes"))
	require.NoError(t, b.Set(ctx, KeyReminderTime, "later"))
	require.NoError(t, b.Set(ctx, KeyFontSize, "huge"))

	got, err := NewStore(b).Load(ctx)
	require.NoError(t, err)

	want := Defaults()
	want.Notifications = true // anything but "false" keeps notifications on
	want.Analytics = false    // only "true" opts in
	require.Equal(t, want, got)
}

type failingBackend struct{ *kv.Memory }

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func (failingBackend) Set(context.Context, string, string) error {
	return errors.New("disk gone")
}

func TestBackendErrorsSurface(t *testing.T) {
	s := NewStore(failingBackend{kv.NewMemory()})

	_, err := s.Load(context.Background())
	require.ErrorContains(t, err, "load setting")

	err = s.Set(context.Background(), KeyTheme, "dark")
	require.ErrorContains(t, err, "save setting theme")
}

func TestClearResetsToDefaults(t *testing.T) {
	ctx := context.Background()
	b := kv.NewMemory()
	s := NewStore(b)
	require.NoError(t, s.Set(ctx, KeyFontSize, "14"))
	require.NoError(t, b.Clear(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Defaults(), got)
}

func TestKeysSorted(t *testing.T) {
	require.Equal(t, []string{"analytics", "fontSize", "haptic", "notifications", "reminderTime", "theme"}, Keys())
}
