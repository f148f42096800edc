// Package parser provides the pure parsing helpers fact computations use to
// turn raw command or file text into a scalar value.
//
// None of these functions perform I/O and none panic on malformed input. Each
// returns an explicit absence (false) when its pattern does not match, so a
// caller can degrade to an Unavailable fact without special cases.
package parser
