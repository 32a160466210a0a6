package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(KindDatabase, "database_error", "a storage error occurred", cause)

	wrapped := fmt.Errorf("creating assessment: %w", err)

	require.Equal(t, KindDatabase, KindOf(wrapped))
	require.Equal(t, "database_error", CodeOf(wrapped))
	require.True(t, errors.Is(wrapped, cause))
}

func TestKindOfUnknownErrorDefaultsToDatabase(t *testing.T) {
	require.Equal(t, KindDatabase, KindOf(errors.New("boom")))
	require.Equal(t, "", CodeOf(errors.New("boom")))
}

func TestFromPreservesTypedError(t *testing.T) {
	original := BusinessLogic("assessment_already_exists", "assessment already exists")
	require.Same(t, original, From(original))

	converted := From(errors.New("boom"))
	require.Equal(t, KindDatabase, converted.Kind)
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      fiber.StatusBadRequest,
		KindAuthentication:  fiber.StatusUnauthorized,
		KindAuthorization:   fiber.StatusForbidden,
		KindNotFound:        fiber.StatusNotFound,
		KindBusinessLogic:   fiber.StatusUnprocessableEntity,
		KindRateLimit:       fiber.StatusTooManyRequests,
		KindExternalService: fiber.StatusBadGateway,
		KindDatabase:        fiber.StatusInternalServerError,
	}

	for kind, status := range cases {
		require.Equal(t, status, HTTPStatus(kind), string(kind))
	}
}

func TestErrorMessageNeverIncludesCauseForClients(t *testing.T) {
	err := Database(errors.New("pq: connection refused on 10.0.0.3"))
	require.Equal(t, "a storage error occurred", err.Message)
}
