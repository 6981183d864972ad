package myjwt

import (
	"errors"
	"time"

	"GroupLink/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	UserId   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// GenerateToken 签发访问令牌；正式环境由账号服务签发，这里主要用于联调和测试
func GenerateToken(conf config.JwtConfig, userID int64, nickname string) (string, error) {
	if conf.Key == "" {
		return "", errors.New("jwt key is empty")
	}

	expireHours := conf.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}

	now := time.Now()
	claims := CustomClaims{
		UserId:   userID,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    conf.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(conf.Key))
}

func ParseToken(conf config.JwtConfig, tokenString string) (*CustomClaims, error) {
	if conf.Key == "" {
		return nil, errors.New("jwt key is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(conf.Key), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserId <= 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
