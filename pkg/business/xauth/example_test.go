package xauth_test

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/omeyang/xrocketmq/pkg/business/xauth"
)

func ExampleNewStaticProvider() {
	p, err := xauth.NewStaticProvider("ak", "sk", "")
	if err != nil {
		log.Fatal(err)
	}

	creds, err := p.SessionCredentials()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(creds.AccessKey, creds.NeverExpires())
	// Output: ak true
}

func ExampleNewRefreshableProvider() {
	// loader 通常访问 STS 或配置中心，这里直接返回一组一小时后过期的凭证
	loader := func(ctx context.Context) (*xauth.SessionCredentials, error) {
		return &xauth.SessionCredentials{
			AccessKey:     "sts-ak",
			AccessSecret:  "sts-sk",
			SecurityToken: "token",
			ExpiresAt:     time.Now().Add(time.Hour),
		}, nil
	}

	p, err := xauth.NewRefreshableProvider(context.Background(), loader,
		xauth.WithRefreshAhead(5*time.Minute),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	creds, err := p.SessionCredentials()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(creds.AccessKey, creds.SecurityToken)
	// Output: sts-ak token
}

func ExampleSigner_Sign() {
	p, err := xauth.NewStaticProvider("ak", "sk", "")
	if err != nil {
		log.Fatal(err)
	}
	signer, err := xauth.NewSigner(p, "host@1@0@abc", xauth.WithNamespace("prod"))
	if err != nil {
		log.Fatal(err)
	}

	headers, err := signer.Sign()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(headers[xauth.HeaderNamespace])
	fmt.Println(strings.HasPrefix(headers[xauth.HeaderAuthorization], "MQv2-HMAC-SHA1 Credential=ak,"))
	// Output:
	// prod
	// true
}
