package server

import "github.com/Gerilya-By-BSI/huniya-ml/feature"

// ProfileRiskRequest 是 POST /api/predict/profile-risk 的请求体。
// 全部字段必填；使用指针区分“缺失”和零值。
type ProfileRiskRequest struct {
	Age                 *int     `json:"Age" binding:"required"`
	Occupation          *string  `json:"Occupation" binding:"required"`
	AnnualIncome        *float64 `json:"Annual_Income" binding:"required"`
	MonthlyInhandSalary *float64 `json:"Monthly_Inhand_Salary" binding:"required"`
	NumBankAccounts     *int     `json:"Num_Bank_Accounts" binding:"required"`
	NumCreditCard       *int     `json:"Num_Credit_Card" binding:"required"`
	InterestRate        *float64 `json:"Interest_Rate" binding:"required"`
	NumOfLoan           *int     `json:"Num_of_Loan" binding:"required"`
	TypeOfLoan          *string  `json:"Type_of_Loan" binding:"required"`
	DelayFromDueDate    *int     `json:"Delay_from_due_date" binding:"required"`
	NumOfDelayedPayment *int     `json:"Num_of_Delayed_Payment" binding:"required"`
	ChangedCreditLimit  *float64 `json:"Changed_Credit_Limit" binding:"required"`
	NumCreditInquiries  *int     `json:"Num_Credit_Inquiries" binding:"required"`
	CreditMix           *int     `json:"Credit_Mix" binding:"required"`
	OutstandingDebt     *float64 `json:"Outstanding_Debt" binding:"required"`
	CreditHistoryAge    *int     `json:"Credit_History_Age" binding:"required"`
	PaymentOfMinAmount  *int     `json:"Payment_of_Min_Amount" binding:"required"`
	TotalEMIPerMonth    *float64 `json:"Total_EMI_per_month" binding:"required"`
	PaymentBehaviour    *int     `json:"Payment_Behaviour" binding:"required"`
	MonthlyBalance      *float64 `json:"Monthly_Balance" binding:"required"`
}

// Record 转换为模型输入记录（调用前请求体已通过校验，指针均非 nil）。
func (r *ProfileRiskRequest) Record() feature.Record {
	return feature.Record{
		"Age":                    *r.Age,
		"Occupation":             *r.Occupation,
		"Annual_Income":          *r.AnnualIncome,
		"Monthly_Inhand_Salary":  *r.MonthlyInhandSalary,
		"Num_Bank_Accounts":      *r.NumBankAccounts,
		"Num_Credit_Card":        *r.NumCreditCard,
		"Interest_Rate":          *r.InterestRate,
		"Num_of_Loan":            *r.NumOfLoan,
		"Type_of_Loan":           *r.TypeOfLoan,
		"Delay_from_due_date":    *r.DelayFromDueDate,
		"Num_of_Delayed_Payment": *r.NumOfDelayedPayment,
		"Changed_Credit_Limit":   *r.ChangedCreditLimit,
		"Num_Credit_Inquiries":   *r.NumCreditInquiries,
		"Credit_Mix":             *r.CreditMix,
		"Outstanding_Debt":       *r.OutstandingDebt,
		"Credit_History_Age":     *r.CreditHistoryAge,
		"Payment_of_Min_Amount":  *r.PaymentOfMinAmount,
		"Total_EMI_per_month":    *r.TotalEMIPerMonth,
		"Payment_Behaviour":      *r.PaymentBehaviour,
		"Monthly_Balance":        *r.MonthlyBalance,
	}
}

// SimilarHousesRequest 是 POST /api/similar-houses/ 的请求体。
type SimilarHousesRequest struct {
	Index *int64 `json:"index" binding:"required"`
	TopN  int    `json:"top_n"`
}

// SimilarHousesResponse 相似房源 Index 列表，可能为空。
type SimilarHousesResponse struct {
	SimilarHouses []int64 `json:"similar_houses"`
}
