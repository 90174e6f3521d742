// Package recordfile implements a tracker backed by YAML record files.
//
// It serves exports without network access and is the fixture format for
// templates under development. A record file looks like:
//
//	id: "42"
//	title: Login fails
//	fields:
//	  - name: State
//	    ref: System.State
//	    value: Active
//	  - name: Description
//	    ref: System.Description
//	    type: html
//	    value: <p>See <img src="attachment?FileID=5"></p>
//	revisions:
//	  - author: alice
//	    date: 2024-01-10T09:00:00Z
//	    changes:
//	      - ref: System.State
//	        value: Active
//	comments:
//	  - author: bob
//	    date: 2024-01-11T10:00:00Z
//	    body: Reproduced
//	attachments:
//	  - id: "5"
//	    name: shot.png
//	    path: files/shot.png
//
// Attachment paths are relative to the record file. Images referenced by
// tracker URL are looked up by identifier in the assets directory.
package recordfile
