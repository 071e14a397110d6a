package detector

// 规则名称
const (
	RulePassword      = "Password"
	RuleEmail         = "Email"
	RuleAccountNumber = "Account Number"
	RuleAPIKey        = "API Key / Secret"
)

// Rule 一条检测规则
type Rule struct {
	Name       string `mapstructure:"name"`
	Pattern    string `mapstructure:"pattern"`
	IgnoreCase bool   `mapstructure:"ignore_case"`
}

// DefaultRules 默认规则集，顺序即报告中的规则顺序
// Account Number 只匹配连续数字，电话号码、发票号等也会命中
func DefaultRules() []Rule {
	return []Rule{
		{Name: RulePassword, Pattern: `password\s*[:=]\s*\S+`, IgnoreCase: true},
		{Name: RuleEmail, Pattern: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`},
		{Name: RuleAccountNumber, Pattern: `\b\d{9,18}\b`},
		{Name: RuleAPIKey, Pattern: `(api[_-]?key|secret)[\s:=]+[\w-]{8,}`, IgnoreCase: true},
	}
}
