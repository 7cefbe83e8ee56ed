//go:build !linux

package media

import "go.uber.org/zap"

// Open reports ErrUnsupported: only the Linux MPRIS surface is implemented.
func Open(*zap.Logger) (Surface, error) {
	return nil, ErrUnsupported
}
