package docs

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Paths map[string]map[string]struct {
		Responses map[string]any `json:"responses"`
	} `json:"paths"`
}

func readDocument(t *testing.T) document {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDocument_CommentPostOnlyRedirects(t *testing.T) {
	doc := readDocument(t)

	post, ok := doc.Paths["/movie/{title}/comments"]["post"]
	require.True(t, ok)
	assert.Len(t, post.Responses, 1)
	assert.Contains(t, post.Responses, "302")
}

func TestDocument_ListsPublicRoutes(t *testing.T) {
	doc := readDocument(t)

	for _, path := range []string{"/", "/random", "/movie/{title}", "/movie/{title}/comments"} {
		assert.Contains(t, doc.Paths, path)
	}
}
