package steps

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/melih-ucgun/bedrock/internal/config"
	"github.com/melih-ucgun/bedrock/internal/core"
)

// Konfigürasyonla tanımlanabilen adım türleri burada kayıt edilir.
// Sabit pipeline adımları (packages, s3-bucket...) bağımlılık aldıkları
// için registry'den değil doğrudan kurucularından üretilir.
func init() {
	core.RegisterStep("command", func(name string, params map[string]interface{}) (core.Step, error) {
		s := &CommandStep{BaseStep: core.BaseStep{StepName: name, StepKind: "command"}}
		if err := decodeParams(params, s); err != nil {
			return nil, fmt.Errorf("command step %q: %w", name, err)
		}
		return s, nil
	})
}

// decodeParams, YAML'dan gelen gevşek tipli parametre haritasını adım
// yapısına işler. WeaklyTypedInput sayesinde "5" gibi değerler sayı
// alanlarına da oturur.
func decodeParams(params map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(params)
}

// conditionSettable, when ifadesini konfigürasyondan alabilen adımlar.
type conditionSettable interface {
	SetWhen(expr string)
}

// BuildExtraSteps, extra_steps tanımlarını çalıştırılabilir adımlara çevirir.
func BuildExtraSteps(cfgs []config.StepConfig) ([]core.Step, error) {
	var built []core.Step
	for _, c := range cfgs {
		if c.Name == "" {
			return nil, fmt.Errorf("extra step without a name (kind %q)", c.Kind)
		}
		step, err := core.CreateStep(c.Kind, c.Name, c.Params)
		if err != nil {
			return nil, fmt.Errorf("extra step %q: %w", c.Name, err)
		}
		if c.When != "" {
			cs, ok := step.(conditionSettable)
			if !ok {
				return nil, fmt.Errorf("extra step %q: kind %q does not support when", c.Name, c.Kind)
			}
			cs.SetWhen(c.When)
		}
		if v, ok := step.(core.Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, err
			}
		}
		built = append(built, step)
	}
	return built, nil
}
