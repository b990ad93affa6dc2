package category

import (
	"net/http"

	"github.com/gapeval/backend/srvcerror"
)

const ErrCodeCategoryNotFound = "category_not_found"

func newErrCategoryNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCategoryNotFound,
		"category not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidCategory = "invalid_category"

func newErrInvalidCategory(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidCategory,
		msg,
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeCategorySlugExists = "category_slug_exists"

func newErrCategorySlugExists() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCategorySlugExists,
		"a category with this slug already exists",
	).SetHttpStatusCode(http.StatusConflict)
}
