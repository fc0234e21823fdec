// file: internals/helpers/pagination_test.go
package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolveFor(t *testing.T, target string) Paging {
	t.Helper()
	app := fiber.New()
	var got Paging
	app.Get("/", func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 10, 50)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestResolvePagingDefaults(t *testing.T) {
	p := resolveFor(t, "/")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestResolvePagingClampsAndAliases(t *testing.T) {
	p := resolveFor(t, "/?page=3&page_size=20")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 40, p.Offset)

	p = resolveFor(t, "/?page=-1&per_page=900")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PerPage)
}

func TestBuildPagination(t *testing.T) {
	meta := BuildPagination(Paging{Page: 2, PerPage: 10, Offset: 10, Limit: 10}, 25, 10)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	assert.EqualValues(t, 25, meta.Total)
}
