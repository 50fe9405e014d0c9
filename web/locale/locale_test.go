package locale

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTranslations = fstest.MapFS{
	"translation/translate.en_US.toml": {Data: []byte(`
[toasts]
"hello" = "Hello {{ .Name }}"
"plain" = "Plain"
`)},
}

func TestLocalize(t *testing.T) {
	require.NoError(t, InitLocalizer(testTranslations))

	assert.Equal(t, "Plain", I18n("toasts.plain"))
	assert.Equal(t, "Hello bob", I18n("toasts.hello", "Name==bob"))
	assert.Equal(t, "toasts.missing", I18n("toasts.missing"))
}

func TestLocalizerMiddleware(t *testing.T) {
	require.NoError(t, InitLocalizer(testTranslations))
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(LocalizerMiddleware())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Localize(FromContext(c), "toasts.plain"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	engine.ServeHTTP(w, req)

	assert.Equal(t, "Plain", w.Body.String())
}

func TestCreateTemplateData(t *testing.T) {
	data := createTemplateData([]string{"a==1", "b==x==y", "broken"})
	assert.Equal(t, map[string]any{"a": "1", "b": "x==y"}, data)
}
