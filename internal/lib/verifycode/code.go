// Package verifycode генерирует короткие числовые коды подтверждения почты.
package verifycode

import (
	"math/rand/v2"
	"strconv"
)

// Generate возвращает равномерно распределенный пятизначный код
// в диапазоне [10000, 99999].
//
// Код не является криптографическим секретом: поиск при подтверждении
// идет по пользователю, а не по коду, поэтому коллизии между
// пользователями допустимы.
func Generate() string {
	return strconv.Itoa(rand.IntN(90000) + 10000)
}
