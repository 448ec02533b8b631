package app

import (
	"fmt"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
)

func (a *App) usesTemplates() bool {
	_, ok := a.model.(*classifier.TemplateModel)
	return ok
}

// LoadTemplates trains one template per gesture from captured sessions and
// installs them in the template matcher. Catalogued captures are preferred;
// a gesture with none falls back to its CSV in the export directory. It
// returns the number of templates installed.
func (a *App) LoadTemplates() (int, error) {
	csvs, err := export.LoadDir(a.settings.Export.Dir)
	if err != nil {
		return 0, fmt.Errorf("load export dir: %w", err)
	}

	trainer := gesture.NewTrainer(a.adapter.Window(), a.settings.Model.TemplateTolerance)
	loaded := 0
	for _, g := range gesture.All() {
		var sequences [][]features.Vector
		if a.store != nil {
			captures, err := a.store.Captures().ListByLabel(g)
			if err != nil {
				return loaded, fmt.Errorf("list captures for %s: %w", g, err)
			}
			for _, c := range captures {
				if len(c.Sequence) > 0 {
					sequences = append(sequences, c.Sequence)
				}
			}
		}
		if len(sequences) == 0 && len(csvs[g]) > 0 {
			sequences = append(sequences, csvs[g])
		}
		if len(sequences) == 0 {
			a.templates.RemoveTemplate(g)
			continue
		}

		tmpl, err := trainer.Train(g, sequences)
		if err != nil {
			return loaded, fmt.Errorf("train %s: %w", g, err)
		}
		a.templates.AddTemplate(tmpl)
		loaded++
	}

	a.logger.Info("gesture templates loaded", "templates", loaded)
	return loaded, nil
}
