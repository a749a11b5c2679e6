// Package entity 定义领域实体
package entity

import "strings"

// 表单字段键，按所属步骤分组
const (
	FieldProjectType         = "project_type"
	FieldTitle               = "title"
	FieldDescription         = "description"
	FieldEducationalContext  = "educational_context"
	FieldLearningObjectives  = "learning_objectives"
	FieldPedagogicalApproach = "pedagogical_approach"
	FieldAccessibility       = "accessibility"
	FieldContentStructure    = "content_structure"
	FieldDurationEstimate    = "duration_estimate"
)

// StepFields 每个步骤负责填写的字段
var StepFields = map[StepID][]string{
	StepProjectType:           {FieldProjectType, FieldTitle, FieldDescription},
	StepEducationalContext:    {FieldEducationalContext},
	StepLearningObjectives:    {FieldLearningObjectives},
	StepPedagogicalApproach:   {FieldPedagogicalApproach},
	StepCulturalAccessibility: {FieldAccessibility},
	StepContentStructure:      {FieldContentStructure, FieldDurationEstimate},
	StepFinalReview:           {},
}

// WizardFormData 向导累积表单数据
// 仅已访问步骤的字段保证存在，未知字段原样保存
type WizardFormData map[string]any

// Merge 字段级浅合并，返回新对象
// partial 中出现的键覆盖原值，其余键保持不变；两个输入都不会被修改
func (d WizardFormData) Merge(partial WizardFormData) WizardFormData {
	out := make(WizardFormData, len(d)+len(partial))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Clone 浅拷贝
func (d WizardFormData) Clone() WizardFormData {
	return WizardFormData(nil).Merge(d)
}

// String 读取字符串字段，缺失或类型不符时返回空串
func (d WizardFormData) String(key string) string {
	v, ok := d[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Has 检查字段是否已填写
func (d WizardFormData) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// MissingFields 返回指定步骤尚未填写的字段
func (d WizardFormData) MissingFields(step StepID) []string {
	var missing []string
	for _, f := range StepFields[step] {
		if !d.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
