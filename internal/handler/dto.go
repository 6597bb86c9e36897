package handler

type RateSelectQuery struct {
	Date     string `form:"edt_select_date"`
	Currency string `form:"cmb_select_currency"`
}

type GetRateURI struct {
	Date     string `uri:"date" binding:"required,calendar_date"`
	Currency string `uri:"currency" binding:"required,currency_code"`
}

type ImportFormRequest struct {
	Date string `form:"edt_select_date" binding:"required,calendar_date"`
}

type ImportJSONRequest struct {
	DateImport string `json:"date_import" binding:"required,calendar_date"`
}

type RateSelectError struct {
	DateRate string `json:"date_rate"`
	Currency string `json:"currency"`
	Message  string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
