package commands

import (
	"io"

	"github.com/aymerick/raymond"
)

const listTemplate = `components on {{scope}}:
{{#each items}}
  {{id}}{{#if deprecated}} [deprecated]{{/if}}{{#if versions}} ({{versions}}){{/if}}
{{/each}}`

const logTemplate = `history of {{id}}:
{{#each entries}}
  {{version}}  {{date}}  {{username}} <{{email}}>  {{message}}
{{/each}}`

func renderTemplate(out io.Writer, source string, ctx map[string]interface{}) error {
	tpl, err := raymond.Parse(source)

	if err != nil {
		return err
	}

	rendered, err := tpl.Exec(ctx)

	if err != nil {
		return err
	}

	_, err = io.WriteString(out, rendered)

	return err
}
