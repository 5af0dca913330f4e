package dataurl_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"testing"

	"github.com/myoungji/website/internal/dataurl"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR") //nolint:gochecknoglobals // test fixture

func TestEncoder_Encode(t *testing.T) {
	t.Parallel()
	encoder := dataurl.Encoder{MaxBytes: 64}

	tests := []struct {
		name    string
		source  dataurl.Source
		want    string
		wantErr error
	}{
		{
			name:   "declared type",
			source: dataurl.FromBytes("a.jpg", "image/jpeg", []byte("jpeg")),
			want:   "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg")),
		},
		{
			name:   "sniffed type",
			source: dataurl.FromBytes("a.bin", "application/octet-stream", pngHeader),
			want:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
		},
		{
			name:   "missing type",
			source: dataurl.FromBytes("a", "", []byte("GIF89a")),
			want:   "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a")),
		},
		{
			name:    "not an image",
			source:  dataurl.FromBytes("notes.txt", "text/plain", []byte("hello")),
			wantErr: dataurl.ErrNotImage,
		},
		{
			name:    "empty",
			source:  dataurl.FromBytes("empty.png", "image/png", nil),
			wantErr: dataurl.ErrNotImage,
		},
		{
			name:    "too large",
			source:  dataurl.FromBytes("big.png", "image/png", bytes.Repeat([]byte{1}, 65)),
			wantErr: dataurl.ErrImageTooLarge,
		},
		{
			name:   "exactly at limit",
			source: dataurl.FromBytes("max.png", "image/png", bytes.Repeat([]byte{1}, 64)),
			want:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{1}, 64)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			urls, err := encoder.Encode(context.Background(), tt.source).Wait(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, []string{tt.want}, urls)
		})
	}
}

func TestEncoder_KeepsOrder(t *testing.T) {
	t.Parallel()
	encoder := dataurl.Encoder{MaxBytes: 1024}
	var (
		sources []dataurl.Source
		want    []string
	)
	for i := range 20 {
		payload := []byte(fmt.Sprintf("image-%d", i))
		sources = append(sources, dataurl.FromBytes(fmt.Sprintf("%d.png", i), "image/png", payload))
		want = append(want, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(payload))
	}

	urls, err := encoder.Encode(context.Background(), sources...).Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, urls)
}

func TestEncoder_NoSources(t *testing.T) {
	t.Parallel()
	urls, err := dataurl.Encoder{MaxBytes: 1}.Encode(context.Background()).Wait(context.Background())
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestEncoding_WaitRespectsContext(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	blocked := dataurl.Source{
		Filename:    "slow.png",
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			<-release
			return io.NopCloser(bytes.NewReader(pngHeader)), nil
		},
	}

	encoding := dataurl.Encoder{MaxBytes: 1024}.Encode(context.Background(), blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := encoding.Wait(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	urls, err := encoding.Wait(context.Background())
	require.NoError(t, err)
	require.Len(t, urls, 1)
}
