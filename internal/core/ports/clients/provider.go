package clients

// ClientProvider holds the outbound clients and caches needed by services.
// Optional entries may be nil; the services then skip the related lookups.
type ClientProvider struct {
	Calculations      CalculationsClient
	Cases             CasesClient
	Investment        InvestmentServiceClient
	Epa               EpaServiceClient
	SingleAuth        SingleAuthService
	Bank              BankService
	AccessKeyCache    AccessKeyCache
	CalculationsCache CalculationsCache
	MemberLock        MemberLock
}
