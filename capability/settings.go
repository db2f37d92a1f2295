package capability

import (
	"context"
	"fmt"
)

// SettingsStub is the Settings implementation. Setting values through the
// command bar is not wired to a persistence layer yet; the operation
// fails explicitly so the value is never silently dropped.
type SettingsStub struct{}

var _ Settings = SettingsStub{}

func (SettingsStub) Set(ctx context.Context, key, value string) error {
	return unimplemented(fmt.Sprintf("settings key %q", key))
}
