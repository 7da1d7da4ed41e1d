package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream 服务端正常关闭订阅流（EOF）
	ErrEndOfStream = errors.New("feed: end of stream")

	// ErrBondingCurveNotFound Pump 买入时无法在账户列表中定位 bonding curve
	ErrBondingCurveNotFound = errors.New("bonding curve account not found")

	// ErrNoTargetBalance 目标账户在交易中没有任何相关 token 余额记录
	ErrNoTargetBalance = errors.New("target has no token balance entry")
)

// ConnectError 建立连接或订阅失败，对本次运行是致命的
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// StreamError 订阅流中途的传输错误，由调用方决定是否重连
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// ParseError 账户地址、余额条目或金额字符串无法解析，跳过对应交易/解码调用即可
type ParseError struct {
	Field string // 出错字段，例如 account_keys[3]、post_token_balances.amount
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parse %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ArithmeticError 无符号减法下溢（post < pre），按解码失败处理
type ArithmeticError struct {
	Field string
	Pre   uint64
	Post  uint64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("underflow in %s delta: post=%d < pre=%d", e.Field, e.Post, e.Pre)
}

// ErrorKind 将错误归类为 parse / arithmetic / decode，用于计数与日志
func ErrorKind(err error) string {
	var parseErr *ParseError
	var arithErr *ArithmeticError
	switch {
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &arithErr):
		return "arithmetic"
	default:
		return "decode"
	}
}
