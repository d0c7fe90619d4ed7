package domain

// Token is token metadata as exposed by the façade.
type Token struct {
	Address  string   `json:"address"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Decimals int      `json:"decimals"`
	LogoURI  string   `json:"logoURI,omitempty"`
	Tags     []string `json:"tags"`
	Verified bool     `json:"verified"`
}

// TokenListOpts filters a token list query.
type TokenListOpts struct {
	ListOpts
	Search   string
	Tags     []string
	Verified *bool
}

// TokenList is a paginated list of tokens.
type TokenList struct {
	Tokens     []Token    `json:"tokens"`
	Pagination Pagination `json:"pagination"`
}
