package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// seed copies the bundled fixtures into the catalog records, one collection or all of them.
func (cli *commandLine) seed(collection string) error {
	ctx := context.Background()
	collections := cli.fixtures.Collections()
	if collection != "" {
		collections = []string{collection}
	}

	for _, name := range collections {
		docs, err := cli.fixtures.Raw(name)
		if err != nil {
			return errors.Wrapf(err, "reading %s fixtures", name)
		}
		if err = cli.seeder.Seed(ctx, name, docs); err != nil {
			return err
		}
		fmt.Printf("seeded %s: %d records\n", name, len(docs))
	}
	return nil
}
