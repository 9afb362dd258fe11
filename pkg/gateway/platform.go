package gateway

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/oa"
	wxwork "github.com/rwsbillyang/go-weixin-gateway/pkg/work"
)

// OfficialAccount is the Official Account dialect: plaintext handshake echo,
// "success" acknowledgement, no suite channel. Pass an oa.Handler to New.
func OfficialAccount() Platform {
	return Platform{
		Name:    "oa",
		Table:   oa.Table(),
		AckBody: "success",
	}
}

// Work is the single-corp Work dialect: encrypted handshake, empty-body
// acknowledgement. Pass a work.Handler to New.
func Work() Platform {
	return Platform{
		Name:               "work",
		Table:              wxwork.Table(),
		EncryptedHandshake: true,
	}
}

// WorkISV is the third-party provider dialect: like Work, plus the nested
// suite lifecycle channel. Pass a work.Handler to New and a
// work.SuiteHandler via WithSuiteHandler.
func WorkISV() Platform {
	return Platform{
		Name:               "work-isv",
		Table:              wxwork.Table(),
		SuiteTable:         wxwork.SuiteTable(),
		SuiteAckBody:       "success",
		EncryptedHandshake: true,
	}
}
