package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFragment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "surrounded by prose",
			raw:  "Sure! <a><b>x</b></a> Enjoy.",
			want: "<a><b>x</b></a>",
		},
		{
			name: "first end after first start",
			raw:  "<a>1</a><a>2</a>",
			want: "<a>1</a>",
		},
		{
			name: "stray end tag before start",
			raw:  "</a> text <a>ok</a>",
			want: "<a>ok</a>",
		},
		{
			name:    "missing start",
			raw:     "nothing here</a>",
			wantErr: true,
		},
		{
			name:    "missing end",
			raw:     "<a>never closed",
			wantErr: true,
		},
		{
			name:    "end only before start",
			raw:     "</a><a>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFragment(tt.raw, "<a>", "</a>")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrFragmentNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
