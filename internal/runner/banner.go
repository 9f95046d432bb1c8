package runner

import "github.com/projectdiscovery/gologger"

var banner = `
   ____ _____ ____  _  __
  / __ '/ ___/ __ \| |/_/
 / /_/ / /  / /_/ />  <
 \__,_/_/  / .___/_/|_|
          /_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}
