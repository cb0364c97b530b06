package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/card-scanner/internal/common"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.LoadConfig()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "cardscan.db")
	cfg.OCR.ArtifactCacheDir = t.TempDir()
	return cfg
}

func TestNew_TextOnly(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), false, nil)
	require.NoError(t, err)
	defer a.Close()

	_, c, err := a.Processor.ProcessText(ctx, "Alice Tan\nSales Manager\nalice@tan.co")
	require.NoError(t, err)
	assert.Equal(t, "Alice Tan", c.Name)

	_, _, err = a.Processor.ProcessFile(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.OCR.Provider = "remote"
	cfg.OCR.RemoteAPIKey = ""

	_, err := New(context.Background(), cfg, true, nil)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name    string
		lexicon string
		wantErr bool
	}{
		{name: "default lexicon"},
		{
			name: "custom lexicon",
			lexicon: `version: 2
languages:
  en:
    company: [holdings]
    title: [chef]
    address: [lane]
    label: [tel]
`,
		},
		{name: "invalid lexicon", lexicon: "version: 0\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := common.ExtractConfig{MaxInputBytes: 1024}
			if tt.lexicon != "" {
				cfg.LexiconPath = filepath.Join(t.TempDir(), "lexicon.yaml")
				require.NoError(t, os.WriteFile(cfg.LexiconPath, []byte(tt.lexicon), 0o644))
			}
			ex, err := NewExtractor(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1024, ex.MaxInputBytes())
		})
	}
}

func TestNewExtractor_MissingLexicon(t *testing.T) {
	_, err := NewExtractor(common.ExtractConfig{LexiconPath: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
