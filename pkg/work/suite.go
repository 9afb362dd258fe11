package work

import (
	"github.com/rwsbillyang/go-weixin-gateway/pkg/envelope"
)

// SuiteNotice holds the fields every third-party suite lifecycle
// notification shares. These documents arrive on the provider callback,
// carry an InfoType discriminator instead of MsgType, and never expect a
// content reply: the gateway answers with the literal "success" ack.
type SuiteNotice struct {
	SuiteID   string
	InfoType  string
	Timestamp int64
}

func baseSuiteNotice(f envelope.Fields) SuiteNotice {
	return SuiteNotice{
		SuiteID:   f.Text("SuiteId"),
		InfoType:  f.Text("InfoType"),
		Timestamp: f.Int("TimeStamp"),
	}
}

// SuiteTicketNotice delivers the ticket the vendor pushes every ten minutes;
// it is required for the suite access-token exchange.
type SuiteTicketNotice struct {
	SuiteNotice
	SuiteTicket string
}

func newSuiteTicketNotice(f envelope.Fields) *SuiteTicketNotice {
	return &SuiteTicketNotice{SuiteNotice: baseSuiteNotice(f), SuiteTicket: f.Text("SuiteTicket")}
}

// CreateAuthNotice delivers the temporary auth code of a corp that just
// installed the suite; the code is exchanged for permanent credentials.
type CreateAuthNotice struct {
	SuiteNotice
	AuthCode string
	State    string
}

func newCreateAuthNotice(f envelope.Fields) *CreateAuthNotice {
	return &CreateAuthNotice{SuiteNotice: baseSuiteNotice(f), AuthCode: f.Text("AuthCode"), State: f.Text("State")}
}

// ChangeAuthNotice fires when an installed corp changes the suite's
// authorization scope.
type ChangeAuthNotice struct {
	SuiteNotice
	AuthCorpID string
	State      string
}

func newChangeAuthNotice(f envelope.Fields) *ChangeAuthNotice {
	return &ChangeAuthNotice{SuiteNotice: baseSuiteNotice(f), AuthCorpID: f.Text("AuthCorpId"), State: f.Text("State")}
}

// CancelAuthNotice fires when a corp uninstalls the suite.
type CancelAuthNotice struct {
	SuiteNotice
	AuthCorpID string
}

func newCancelAuthNotice(f envelope.Fields) *CancelAuthNotice {
	return &CancelAuthNotice{SuiteNotice: baseSuiteNotice(f), AuthCorpID: f.Text("AuthCorpId")}
}

// suiteContactNotice holds the fields the suite change_contact family
// shares; AuthCorpID names the corp whose directory changed.
type suiteContactNotice struct {
	SuiteNotice
	AuthCorpID string
	ChangeType string
}

func baseSuiteContactNotice(f envelope.Fields) suiteContactNotice {
	return suiteContactNotice{
		SuiteNotice: baseSuiteNotice(f),
		AuthCorpID:  f.Text("AuthCorpId"),
		ChangeType:  f.Text("ChangeType"),
	}
}

// SuiteUserCreateNotice mirrors UserCreateEvent for an authorized corp.
type SuiteUserCreateNotice struct {
	suiteContactNotice
	UserID     string
	Name       string
	Department string
}

func newSuiteUserCreateNotice(f envelope.Fields) *SuiteUserCreateNotice {
	return &SuiteUserCreateNotice{
		suiteContactNotice: baseSuiteContactNotice(f),
		UserID:             f.Text("UserID"),
		Name:               f.Text("Name"),
		Department:         f.Text("Department"),
	}
}

// SuiteUserUpdateNotice mirrors UserUpdateEvent for an authorized corp.
type SuiteUserUpdateNotice struct {
	suiteContactNotice
	UserID     string
	NewUserID  string
	Name       string
	Department string
}

func newSuiteUserUpdateNotice(f envelope.Fields) *SuiteUserUpdateNotice {
	return &SuiteUserUpdateNotice{
		suiteContactNotice: baseSuiteContactNotice(f),
		UserID:             f.Text("UserID"),
		NewUserID:          f.Text("NewUserID"),
		Name:               f.Text("Name"),
		Department:         f.Text("Department"),
	}
}

// SuiteUserDeleteNotice mirrors UserDeleteEvent for an authorized corp.
type SuiteUserDeleteNotice struct {
	suiteContactNotice
	UserID string
}

func newSuiteUserDeleteNotice(f envelope.Fields) *SuiteUserDeleteNotice {
	return &SuiteUserDeleteNotice{suiteContactNotice: baseSuiteContactNotice(f), UserID: f.Text("UserID")}
}

// SuitePartyCreateNotice mirrors PartyCreateEvent for an authorized corp.
type SuitePartyCreateNotice struct {
	suiteContactNotice
	ID       int64
	Name     string
	ParentID int64
}

func newSuitePartyCreateNotice(f envelope.Fields) *SuitePartyCreateNotice {
	return &SuitePartyCreateNotice{
		suiteContactNotice: baseSuiteContactNotice(f),
		ID:                 f.Int("Id"),
		Name:               f.Text("Name"),
		ParentID:           f.Int("ParentId"),
	}
}

// SuitePartyUpdateNotice mirrors PartyUpdateEvent for an authorized corp.
type SuitePartyUpdateNotice struct {
	suiteContactNotice
	ID       int64
	Name     string
	ParentID int64
}

func newSuitePartyUpdateNotice(f envelope.Fields) *SuitePartyUpdateNotice {
	return &SuitePartyUpdateNotice{
		suiteContactNotice: baseSuiteContactNotice(f),
		ID:                 f.Int("Id"),
		Name:               f.Text("Name"),
		ParentID:           f.Int("ParentId"),
	}
}

// SuitePartyDeleteNotice mirrors PartyDeleteEvent for an authorized corp.
type SuitePartyDeleteNotice struct {
	suiteContactNotice
	ID int64
}

func newSuitePartyDeleteNotice(f envelope.Fields) *SuitePartyDeleteNotice {
	return &SuitePartyDeleteNotice{suiteContactNotice: baseSuiteContactNotice(f), ID: f.Int("Id")}
}

// SuiteTagUpdateNotice mirrors TagUpdateEvent for an authorized corp.
type SuiteTagUpdateNotice struct {
	suiteContactNotice
	TagID        int64
	AddUserItems []string
	DelUserItems []string
}

func newSuiteTagUpdateNotice(f envelope.Fields) *SuiteTagUpdateNotice {
	return &SuiteTagUpdateNotice{
		suiteContactNotice: baseSuiteContactNotice(f),
		TagID:              f.Int("TagId"),
		AddUserItems:       splitList(f.Text("AddUserItems")),
		DelUserItems:       splitList(f.Text("DelUserItems")),
	}
}

// ShareAgentChangeNotice fires when an upstream corp shares or unshares an
// application with a downstream corp in a corp group.
type ShareAgentChangeNotice struct {
	SuiteNotice
	AuthCorpID string
	AgentID    int64
}

func newShareAgentChangeNotice(f envelope.Fields) *ShareAgentChangeNotice {
	return &ShareAgentChangeNotice{
		SuiteNotice: baseSuiteNotice(f),
		AuthCorpID:  f.Text("AuthCorpId"),
		AgentID:     f.Int("AgentId"),
	}
}
