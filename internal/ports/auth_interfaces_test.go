package ports_test

import (
	"testing"

	mocks "github.com/neurozen/neurozen/internal/mocks/auth"
	"github.com/neurozen/neurozen/internal/ports"
)

// This test only verifies that our test doubles conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.SSOProvider = (*mocks.MockSSOProvider)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.FlashStore = (*mocks.MemoryFlashStore)(nil)
	var _ ports.RoleMapper = (*mocks.StaticRoleMapper)(nil)
	var _ ports.PasswordHasher = (*mocks.PlainPasswordHasher)(nil)
}
