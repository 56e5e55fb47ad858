package smilepay

// Wire types for the SmilePay/ZBNet payment gateway. These shapes carry no
// dependency on the web framework or the ledger; the raw* variants mirror the
// gateway's JSON exactly and are normalized before leaving this package.

// Config carries the injected gateway configuration. Environment selects the
// base URL; credentials are sent as x-api-key / x-api-secret headers.
type Config struct {
	APIKey        string
	APISecret     string
	Environment   string // "sandbox" or "production"
	WebhookSecret string
}

// InitiateRequest starts a standard (hosted page) checkout.
type InitiateRequest struct {
	OrderReference    string  `json:"orderReference"`
	Amount            float64 `json:"amount"`
	ReturnURL         string  `json:"returnUrl"`
	ResultURL         string  `json:"resultUrl"`
	ItemName          string  `json:"itemName"`
	ItemDescription   string  `json:"itemDescription"`
	CurrencyCode      string  `json:"currencyCode"`
	FirstName         string  `json:"firstName,omitempty"`
	LastName          string  `json:"lastName,omitempty"`
	MobilePhoneNumber string  `json:"mobilePhoneNumber,omitempty"`
	Email             string  `json:"email,omitempty"`
	PaymentMethod     string  `json:"paymentMethod,omitempty"`
	CancelURL         string  `json:"cancelUrl,omitempty"`
	FailureURL        string  `json:"failureUrl,omitempty"`
}

// ExpressEcoCashRequest pushes a USSD prompt to an EcoCash subscriber.
type ExpressEcoCashRequest struct {
	OrderReference    string  `json:"orderReference"`
	Amount            float64 `json:"amount"`
	CurrencyCode      string  `json:"currencyCode"`
	ReturnURL         string  `json:"returnUrl,omitempty"`
	ResultURL         string  `json:"resultUrl"`
	CancelURL         string  `json:"cancelUrl,omitempty"`
	FailureURL        string  `json:"failureUrl,omitempty"`
	ItemName          string  `json:"itemName"`
	ItemDescription   string  `json:"itemDescription"`
	FirstName         string  `json:"firstName,omitempty"`
	LastName          string  `json:"lastName,omitempty"`
	MobilePhoneNumber string  `json:"mobilePhoneNumber,omitempty"`
	Email             string  `json:"email,omitempty"`
	EcoCashMobile     string  `json:"ecocashMobile"`
}

// ExpressCardRequest submits card details directly (MPGS rails).
type ExpressCardRequest struct {
	OrderReference    string  `json:"orderReference"`
	Amount            float64 `json:"amount"`
	CurrencyCode      string  `json:"currencyCode"`
	ReturnURL         string  `json:"returnUrl"`
	ResultURL         string  `json:"resultUrl"`
	CancelURL         string  `json:"cancelUrl,omitempty"`
	FailureURL        string  `json:"failureUrl,omitempty"`
	ItemName          string  `json:"itemName,omitempty"`
	ItemDescription   string  `json:"itemDescription,omitempty"`
	PAN               string  `json:"pan"`
	ExpMonth          string  `json:"expMonth"`
	ExpYear           string  `json:"expYear"`
	SecurityCode      string  `json:"securityCode"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	MobilePhoneNumber string  `json:"mobilePhoneNumber"`
	Email             string  `json:"email"`
	PaymentMethod     string  `json:"paymentMethod,omitempty"`
}

// InitiateResponse is the normalized standard-checkout response. Accepted
// (PENDING at the gateway) is indicated by ResponseCode "200" or a non-empty
// PaymentURL.
type InitiateResponse struct {
	ResponseCode         string
	ResponseMessage      string
	PaymentURL           string
	TransactionReference string
}

// Accepted reports whether the gateway accepted the checkout request.
func (r *InitiateResponse) Accepted() bool {
	return r.ResponseCode == "200" || r.PaymentURL != ""
}

// EcoCashResponse is the normalized express EcoCash response.
type EcoCashResponse struct {
	ResponseCode         string
	ResponseMessage      string
	Status               string
	TransactionReference string
}

// Accepted reports whether the gateway accepted the USSD push.
func (r *EcoCashResponse) Accepted() bool {
	return r.ResponseCode == "200"
}

// CardOutcome tags the mutually exclusive results of an accepted express card
// request. The legacy redirect and the 3DS2 challenge must never be merged
// into a plain PENDING result.
type CardOutcome int

const (
	// CardOutcomeApproved means no step-up authentication is required.
	CardOutcomeApproved CardOutcome = iota
	// CardOutcomeThreeDSRedirect carries a legacy self-submitting redirect page.
	CardOutcomeThreeDSRedirect
	// CardOutcomeThreeDS2Challenge carries an in-page 3DS2 challenge.
	CardOutcomeThreeDS2Challenge
)

// ThreeDS2Challenge is the in-page step-up challenge extracted from
// customizedHtml["3ds2"].
type ThreeDS2Challenge struct {
	ACSURL string
	CReq   string
}

// CardResponse is the normalized express card response with the outcome
// resolved once at the wire boundary.
type CardResponse struct {
	ResponseCode          string
	ResponseMessage       string
	Status                string
	TransactionReference  string
	GatewayRecommendation string
	AuthenticationStatus  string
	Outcome               CardOutcome
	RedirectHTML          string
	Challenge             *ThreeDS2Challenge
}

// Accepted reports whether the gateway accepted the card request.
func (r *CardResponse) Accepted() bool {
	return r.ResponseCode == "200"
}

// StatusResponse is a point-in-time gateway view of a payment attempt.
type StatusResponse struct {
	MerchantID           string  `json:"merchantId"`
	Reference            string  `json:"reference"`
	OrderReference       string  `json:"orderReference"`
	ItemName             string  `json:"itemName"`
	Amount               float64 `json:"amount"`
	Currency             string  `json:"currency"`
	PaymentOption        string  `json:"paymentOption"`
	Status               string  `json:"status"`
	CreatedDate          string  `json:"createdDate"`
	ReturnURL            string  `json:"returnUrl"`
	ResultURL            string  `json:"resultUrl"`
	ClientFee            float64 `json:"clientFee"`
	MerchantFee          float64 `json:"merchantFee"`
}

// CancelResponse reports the result of a gateway-side cancel.
type CancelResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
}

// rawResponse covers both response-header variants the gateway emits:
// current endpoints use responseCode/responseMessage, legacy ones
// statusCode/statusMessage. Normalized via code()/message().
type rawResponse struct {
	ResponseCode          string          `json:"responseCode"`
	ResponseMessage       string          `json:"responseMessage"`
	StatusCode            string          `json:"statusCode"`
	StatusMessage         string          `json:"statusMessage"`
	PaymentURL            string          `json:"paymentUrl"`
	Status                string          `json:"status"`
	TransactionReference  string          `json:"transactionReference"`
	GatewayRecommendation string          `json:"gatewayRecommendation"`
	AuthenticationStatus  string          `json:"authenticationStatus"`
	RedirectHTML          string          `json:"redirectHtml"`
	CustomizedHTML        map[string]struct {
		ACSURL string `json:"acsUrl"`
		CReq   string `json:"cReq"`
	} `json:"customizedHtml"`
}

func (r *rawResponse) code() string {
	if r.ResponseCode != "" {
		return r.ResponseCode
	}
	return r.StatusCode
}

func (r *rawResponse) message() string {
	if r.ResponseMessage != "" {
		return r.ResponseMessage
	}
	return r.StatusMessage
}
