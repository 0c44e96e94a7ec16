package scene

import "errors"

// ErrInvalidPlacement reports that a microphone or event placement was
// rejected by the backend. Callers treat it as a retryable rejection, unlike
// every other error this package returns.
var ErrInvalidPlacement = errors.New("invalid placement")
