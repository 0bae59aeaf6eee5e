package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorValidation, KindOf(Invalid("bad")))
	assert.Equal(t, ErrorNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, ErrorPermission, KindOf(PermissionDenied("nope")))
	assert.Equal(t, ErrorConflict, KindOf(Conflict("busy")))
	assert.Equal(t, ErrorSystem, KindOf(System("broken")))

	assert.Equal(t, ErrorSystem, KindOf(errors.New("untyped")))
	assert.Equal(t, ErrorConflict, KindOf(fmt.Errorf("wrapped: %w", Conflict("busy"))))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(Invalid("bad")))
	assert.Equal(t, fiber.StatusNotFound, StatusOf(NotFound("gone")))
	assert.Equal(t, fiber.StatusForbidden, StatusOf(PermissionDenied("nope")))
	assert.Equal(t, fiber.StatusConflict, StatusOf(Conflict("busy")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusOf(errors.New("untyped")))
}

func TestErrorDetail(t *testing.T) {
	err := Conflict("team is full")
	assert.EqualError(t, err, "team is full")
	assert.Equal(t, "conflict", err.Kind.String())
}
