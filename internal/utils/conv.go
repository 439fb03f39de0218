package utils

import (
	"math/rand"
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// StringToUint converts string to uint, returns 0 if error or negative
func StringToUint(s string) uint {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(i)
}

const shortIDChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewShortID 生成帖子/评论的 8 位短 ID
func NewShortID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = shortIDChars[rand.Intn(len(shortIDChars))]
	}
	return string(b)
}
