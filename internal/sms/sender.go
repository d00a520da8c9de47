package sms

import "go.uber.org/zap"

// Sender delivers a verification code to a phone number. Real SMS delivery
// is an external collaborator; LogSender stands in for it.
type Sender interface {
	SendCode(phone, code string) error
}

// LogSender writes the code to the log instead of sending it.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) SendCode(phone, code string) error {
	s.Logger.Info("verification code issued",
		zap.String("phone", phone),
		zap.String("code", code),
	)
	return nil
}
