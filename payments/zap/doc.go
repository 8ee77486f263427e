// Package zap adapts go.uber.org/zap to the payments/log Logger interface.
package zap
