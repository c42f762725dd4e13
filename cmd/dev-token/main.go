// dev-token prints an access token signed with the configured secret, for
// calling the API without the identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/pkg"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	sub := flag.String("sub", "", "user id (a new uuid when empty)")
	email := flag.String("email", "dev@driverpro.local", "email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	slogger := pkg.CustomSlog("dev-token", "warn")
	cfg, err := pkg.ParseConfig()
	if err != nil {
		slogger.Error("cannot parse config", "action", "parse config", "error", err)
		os.Exit(1)
	}

	if *sub == "" {
		*sub = uuid.NewString()
	}
	token, err := pkg.GenerateTokenMyClaims(&pkg.MyClaims{
		Email:            *email,
		Role:             "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{Subject: *sub},
	}, []byte(cfg.AuthCfg.JWTSecret), *ttl)
	if err != nil {
		slogger.Error("cannot sign token", "action", "sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
