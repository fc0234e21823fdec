// file: internals/helpers/captcha.go
package helper

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"classmanager_backend/internals/resperr"
)

const captchaKeyPrefix = "sms_captcha_"

// VerifyCaptcha consumes the SMS captcha stored for a phone number. The
// code is deleted on a successful match so a captcha proves at most one
// request; a mismatch leaves it in place until its TTL.
func VerifyCaptcha(ctx context.Context, rdb *redis.Client, telephone, code string) error {
	if telephone == "" || code == "" {
		return resperr.IncorrectCaptcha
	}
	key := captchaKeyPrefix + telephone
	stored, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return resperr.IncorrectCaptcha
	}
	if err != nil {
		return resperr.InternalServerError
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return resperr.IncorrectCaptcha
	}
	if err := rdb.Del(ctx, key).Err(); err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// StoreCaptcha writes a captcha for a phone with the standard key layout;
// the SMS dispatch collaborator calls this after sending.
func StoreCaptcha(ctx context.Context, rdb *redis.Client, telephone, code string, ttlSeconds int) error {
	if err := rdb.Set(ctx, captchaKeyPrefix+telephone, code, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		return resperr.InternalServerError
	}
	return nil
}
