package additions

import "sort"

// Calculator runs one calculation. decode fills the calculator's input.
type Calculator func(decode func(any) error) (any, error)

func calculator[In, Out any](fn func(In) (Out, error)) Calculator {
	return func(decode func(any) error) (any, error) {
		var in In
		if err := decode(&in); err != nil {
			return nil, err
		}
		return fn(in)
	}
}

var registry = map[string]Calculator{
	"acid":          calculator(Acid),
	"pms":           calculator(PMS),
	"so2":           calculator(SO2),
	"fortification": calculator(Fortification),
	"water":         calculator(Water),
	"bentonite":     calculator(Bentonite),
	"copper":        calculator(CopperSulfate),
	"dap":           calculator(DAP),

	"carbon":               calculator(Carbon),
	"copper-bulk":          calculator(CopperSulfateBulk),
	"cream-of-tartar":      calculator(CreamOfTartar),
	"ascorbic":             calculator(AscorbicAcid),
	"ascorbic-degradation": calculator(AscorbicDegradation),
	"dap-prefermentation":  calculator(DAPPreFermentation),
	"yan-dap":              calculator(YANDAP),
	"conversion":           calculator(Convert),
	"alcohol":              calculator(Alcohol),
	"bottles":              calculator(Bottles),
}

// Lookup returns the calculator registered under name.
func Lookup(name string) (Calculator, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names lists the registered calculators in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
