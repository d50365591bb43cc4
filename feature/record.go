package feature

import (
	"fmt"

	"github.com/Gerilya-By-BSI/huniya-ml/pkg/conv"
)

// Record 是一条模型输入：特征名 -> 原始值（整数、浮点或类别字符串）。
type Record map[string]any

// CustomerAttributes 是信用画像模型训练时使用的全部属性，顺序即模型输入列顺序。
var CustomerAttributes = []string{
	"Age",
	"Occupation",
	"Annual_Income",
	"Monthly_Inhand_Salary",
	"Num_Bank_Accounts",
	"Num_Credit_Card",
	"Interest_Rate",
	"Num_of_Loan",
	"Type_of_Loan",
	"Delay_from_due_date",
	"Num_of_Delayed_Payment",
	"Changed_Credit_Limit",
	"Num_Credit_Inquiries",
	"Credit_Mix",
	"Outstanding_Debt",
	"Credit_History_Age",
	"Payment_of_Min_Amount",
	"Total_EMI_per_month",
	"Payment_Behaviour",
	"Monthly_Balance",
}

// CategoricalAttributes 是需要 Label 编码的类别属性。
var CategoricalAttributes = []string{"Occupation", "Type_of_Loan"}

// TargetField 是分类目标（标签编码器的 key）。
const TargetField = "Credit_Score"

// MissingAttributes 返回 record 中缺失的属性名（按 names 顺序）。
func (r Record) MissingAttributes(names []string) []string {
	var missing []string
	for _, name := range names {
		if v, ok := r[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// Float 读取数值属性。缺失或非数值都返回错误，不做默认填充。
func (r Record) Float(name string) (float64, error) {
	v, ok := r[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("feature: missing attribute %q", name)
	}
	f, ok := conv.ToFloat64(v)
	if !ok {
		return 0, fmt.Errorf("feature: attribute %q is not numeric (%T)", name, v)
	}
	return f, nil
}

// Row 按 columns 顺序把已编码的特征组装为一行。
func Row(encoded map[string]float64, columns []string) ([]float64, error) {
	row := make([]float64, len(columns))
	for i, col := range columns {
		v, ok := encoded[col]
		if !ok {
			return nil, fmt.Errorf("feature: missing attribute %q", col)
		}
		row[i] = v
	}
	return row, nil
}
