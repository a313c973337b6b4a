package errors

import "net/http"

// HTTPStatus maps domain codes to HTTP status codes for the service
// layer's JSON error responses.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeContentDuplicateID,
		CodeContentInvalidCardType,
		CodeContentInvalidAttribute,
		CodeContentMissingEntry,
		CodeContentDanglingBranch,
		CodeContentMalformed,
		CodeUnknownDifficulty,
		CodeInvalidRequest:
		return http.StatusBadRequest

	case CodeGameOver:
		return http.StatusConflict

	case CodeGameNotFound,
		CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
